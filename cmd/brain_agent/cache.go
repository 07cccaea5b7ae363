package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the segment cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached segments",
	Long:  "Clears one segment type (--segment) or the whole cache for the profile. Cleared segments are regenerated on the next pipeline run.",
	RunE:  runCacheClear,
}

var cacheClearSegment string

func init() {
	cacheClearCmd.Flags().StringVar(&cacheClearSegment, "segment", "", "Segment type to clear (default: all)")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	segmentCache, closeCache, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	if cacheClearSegment == "" {
		if err := segmentCache.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("Cleared all cached segments.")
		return nil
	}

	segmentType := types.SegmentType(cacheClearSegment)
	if !types.ValidSegmentType(segmentType) {
		return fmt.Errorf("unknown segment type %q", cacheClearSegment)
	}
	if err := segmentCache.Clear(ctx, segmentType); err != nil {
		return err
	}
	fmt.Printf("Cleared cached segment %s.\n", segmentType)
	return nil
}
