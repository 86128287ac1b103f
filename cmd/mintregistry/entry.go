package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

var nonceFlag uint64

// addSigningFlags 写入口共用的签名参数
func addSigningFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&keyHex, "key", "", "hex 私钥（也可通过 "+privateKeyEnv+" 提供）")
	cmd.Flags().Uint64Var(&nonceFlag, "nonce", 0, "授权 nonce（默认取当前纳秒时间）")
}

func nextNonce() uint64 {
	if nonceFlag != 0 {
		return nonceFlag
	}
	return uint64(time.Now().UnixNano())
}

// session 一次本地调用：注册表 + 签名私钥
type session struct {
	reg  registry.Registry
	priv []byte
	addr string
}

func newSession(reg registry.Registry, priv []byte) (*session, error) {
	addr, err := newSigner().Address(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrInvalidArgument, err)
	}
	return &session{reg: reg, priv: priv, addr: addr}, nil
}

func (s *session) authorize(method string, nonce uint64, args ...string) (*types.Authorization, error) {
	inv := types.NewInvocation(s.reg.ContractID(), method, nonce, args...)
	return newSigner().Authorize(s.priv, inv)
}

func (s *session) initialize(ctx context.Context, nonce uint64) error {
	authz, err := s.authorize(types.MethodInit, nonce, s.addr)
	if err != nil {
		return err
	}
	return s.reg.Initialize(ctx, s.addr, authz)
}

func (s *session) mint(ctx context.Context, nonce uint64, n uint32) ([]uint32, error) {
	authz, err := s.authorize(types.MethodMint, nonce, s.addr, strconv.FormatUint(uint64(n), 10))
	if err != nil {
		return nil, err
	}
	return s.reg.Mint(ctx, s.addr, n, authz)
}

func (s *session) flipSaleState(ctx context.Context, nonce uint64) (bool, error) {
	authz, err := s.authorize(types.MethodFlipSaleState, nonce, s.addr)
	if err != nil {
		return false, err
	}
	return s.reg.FlipSaleState(ctx, s.addr, authz)
}

func (s *session) setBaseURI(ctx context.Context, nonce uint64, uri string) error {
	authz, err := s.authorize(types.MethodSetBaseURI, nonce, uri)
	if err != nil {
		return err
	}
	return s.reg.SetBaseURI(ctx, uri, authz)
}

func (s *session) setBaseExtension(ctx context.Context, nonce uint64, ext string) error {
	authz, err := s.authorize(types.MethodSetBaseExtension, nonce, ext)
	if err != nil {
		return err
	}
	return s.reg.SetBaseExtension(ctx, ext, authz)
}

func (s *session) setPrice(ctx context.Context, nonce uint64, price uint64) error {
	authz, err := s.authorize(types.MethodSetPrice, nonce, strconv.FormatUint(price, 10))
	if err != nil {
		return err
	}
	return s.reg.SetPrice(ctx, price, authz)
}

// withSession 打开本地注册表并加载私钥
func withSession(fn func(s *session) error) error {
	priv, err := loadPrivateKey()
	if err != nil {
		return err
	}
	return withLocalRegistry(func(reg registry.Registry) error {
		s, err := newSession(reg, priv)
		if err != nil {
			return err
		}
		return fn(s)
	})
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "初始化注册表，--key 对应地址成为所有者并获得预留代币",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := s.initialize(cmd.Context(), nextNonce()); err != nil {
				return err
			}
			return printResult(map[string]interface{}{"owner": s.addr, "initialized": true}, func() {
				pterm.Success.Printf("注册表已初始化，所有者 %s\n", s.addr)
			})
		})
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint <num-tokens>",
	Short: "向 --key 对应地址铸造代币",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: 数量 %q", registry.ErrInvalidArgument, args[0])
		}
		return withSession(func(s *session) error {
			ids, err := s.mint(cmd.Context(), nextNonce(), uint32(n))
			if err != nil {
				return err
			}
			return printResult(map[string]interface{}{"to": s.addr, "token_ids": ids}, func() {
				pterm.Success.Printf("已向 %s 铸造 %d 个代币: %v\n", s.addr, len(ids), ids)
			})
		})
	},
}

var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "销售开关",
}

var saleFlipCmd = &cobra.Command{
	Use:   "flip",
	Short: "切换销售开关（仅所有者）",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			active, err := s.flipSaleState(cmd.Context(), nextNonce())
			if err != nil {
				return err
			}
			return printResult(map[string]interface{}{"sale_active": active}, func() {
				if active {
					pterm.Success.Println("销售已开启")
				} else {
					pterm.Success.Println("销售已暂停")
				}
			})
		})
	},
}

var setBaseURICmd = &cobra.Command{
	Use:   "set-base-uri <uri>",
	Short: "设置 BaseUri（仅所有者）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := s.setBaseURI(cmd.Context(), nextNonce(), args[0]); err != nil {
				return err
			}
			return printResult(map[string]string{"base_uri": args[0]}, func() {
				pterm.Success.Printf("BaseUri 已更新为 %s\n", args[0])
			})
		})
	},
}

var setBaseExtensionCmd = &cobra.Command{
	Use:   "set-base-extension <ext>",
	Short: "设置 BaseExtension（仅所有者）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := s.setBaseExtension(cmd.Context(), nextNonce(), args[0]); err != nil {
				return err
			}
			return printResult(map[string]string{"base_extension": args[0]}, func() {
				pterm.Success.Printf("BaseExtension 已更新为 %q\n", args[0])
			})
		})
	},
}

var setPriceCmd = &cobra.Command{
	Use:   "set-price <wei>",
	Short: "设置价格（仅所有者，不设上限）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: 价格 %q", registry.ErrInvalidArgument, args[0])
		}
		return withSession(func(s *session) error {
			if err := s.setPrice(cmd.Context(), nextNonce(), price); err != nil {
				return err
			}
			return printResult(map[string]string{"price": args[0]}, func() {
				pterm.Success.Printf("价格已更新为 %d\n", price)
			})
		})
	},
}

func init() {
	saleCmd.AddCommand(saleFlipCmd)
	for _, cmd := range []*cobra.Command{initCmd, mintCmd, saleFlipCmd, setBaseURICmd, setBaseExtensionCmd, setPriceCmd} {
		addSigningFlags(cmd)
	}
}
