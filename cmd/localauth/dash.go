package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reallifegames/localauth/internal/data"
	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	"github.com/reallifegames/localauth/internal/service"
)

func newDashCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Manage dashboard tiles",
	}
	cmd.AddCommand(newDashAddCmd(a))
	return cmd
}

func newDashAddCmd(a *app) *cobra.Command {
	var tile domainauth.Tile
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a tile to the dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			dash := service.NewDashService(service.DashServiceOptions{
				Repo:   data.NewDashRepo(pool),
				Logger: a.logger,
			})
			id, err := dash.Add(ctx, tile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added tile %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&tile.DisplayText, "text", "", "Text shown on the tile")
	cmd.Flags().StringVar(&tile.Link, "link", "", "Target URL of the tile")
	cmd.Flags().StringVar(&tile.CSSClasses, "css", "", "Extra CSS classes")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("link")
	return cmd
}
