package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "显示注册表状态",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalRegistry(func(reg registry.Registry) error {
			st, err := reg.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(st, func() {
				renderKeyValues([][]string{
					{"合约", reg.ContractID()},
					{"所有者", st.Owner},
					{"销售开启", strconv.FormatBool(st.SaleActive)},
					{"已铸造", fmt.Sprintf("%d / %d", st.TotalSupply, st.MaxTokens)},
					{"预留", strconv.FormatUint(uint64(st.TokensReserved), 10)},
					{"单次/单地址上限", strconv.FormatUint(uint64(st.MaxMintPerTx), 10)},
					{"价格 (wei)", strconv.FormatUint(st.Price, 10)},
					{"BaseUri", st.BaseURI},
					{"BaseExtension", st.BaseExtension},
				})
			})
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <id>",
	Short: "查询代币归属与 URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: 代币编号 %q", registry.ErrInvalidArgument, args[0])
		}
		return withLocalRegistry(func(reg registry.Registry) error {
			info, err := reg.Token(cmd.Context(), uint32(id))
			if err != nil {
				return err
			}
			return printResult(info, func() {
				renderKeyValues([][]string{
					{"编号", strconv.FormatUint(uint64(info.TokenID), 10)},
					{"所有者", info.Owner},
					{"URI", info.URI},
				})
			})
		})
	},
}

var walletCmd = &cobra.Command{
	Use:   "wallet <address>",
	Short: "查询地址累计铸造数量",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalRegistry(func(reg registry.Registry) error {
			minted, err := reg.MintedBy(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(map[string]interface{}{"address": args[0], "minted": minted}, func() {
				pterm.Info.Printf("%s 已铸造 %d 个代币\n", args[0], minted)
			})
		})
	},
}
