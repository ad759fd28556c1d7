package commands

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the "cache" command group for local cache maintenance.
func newCacheCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage listing and render caches",
	}

	cmd.AddCommand(newCacheRegenerateCmd(state))
	cmd.AddCommand(newCacheInvalidateCmd(state))
	cmd.AddCommand(newCacheClearRenderCmd(state))

	return cmd
}

// newCacheRegenerateCmd rebuilds listing caches from the content store.
func newCacheRegenerateCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate [collection]",
		Short: "Rescan collections and rewrite their listing caches",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			services, err := buildCore(state)
			if err != nil {
				log.Fatalf("Failed to build services: %v", err)
			}
			defer func() { _ = services.Close() }()

			ctx := context.Background()

			collections := args
			if len(collections) == 0 {
				collections, err = services.Content.Collections()
				if err != nil {
					log.Fatalf("Failed to list collections: %v", err)
				}
			}

			for _, collection := range collections {
				err = services.Listing.Regenerate(ctx, collection)
				if err != nil {
					log.Fatalf("Failed to regenerate %s: %v", collection, err)
				}

				log.Printf("Regenerated listing for %s", collection)
			}
		},
	}
}

// newCacheInvalidateCmd erases one collection's listing cache.
func newCacheInvalidateCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <collection>",
		Short: "Erase a collection's listing cache from both tiers",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			services, err := buildCore(state)
			if err != nil {
				log.Fatalf("Failed to build services: %v", err)
			}
			defer func() { _ = services.Close() }()

			err = services.Listing.Invalidate(context.Background(), args[0])
			if err != nil {
				log.Fatalf("Failed to invalidate %s: %v", args[0], err)
			}

			log.Printf("Invalidated listing for %s", args[0])
		},
	}
}

// newCacheClearRenderCmd empties the render cache.
func newCacheClearRenderCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-render [collection]",
		Short: "Empty the render cache, optionally for one collection",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			services, err := buildCore(state)
			if err != nil {
				log.Fatalf("Failed to build services: %v", err)
			}
			defer func() { _ = services.Close() }()

			ctx := context.Background()

			var cleared int
			if len(args) == 1 {
				cleared = services.RenderCache.ClearCollection(ctx, args[0])
			} else {
				cleared = services.RenderCache.ClearAll(ctx)
			}

			log.Printf("Cleared %d render cache entries", cleared)
		},
	}
}
