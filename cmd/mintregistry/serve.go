package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/mintregistry/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 网关",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadAppConfig("")
		if err != nil {
			return err
		}
		a, err := app.Start(app.WithAPI(), app.WithAppConfig(cfg))
		if err != nil {
			return err
		}
		pterm.Success.Printf("注册表 %s 已启动，按 Ctrl+C 停止\n", a.Registry().ContractID())
		a.Wait()
		return nil
	},
}
