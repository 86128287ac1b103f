package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/mintregistry/internal/core/registry/auth"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// privateKeyEnv 私钥环境变量，避免私钥出现在 shell 历史里
const privateKeyEnv = "MINTREGISTRY_PRIVATE_KEY"

var keyHex string

// keysCmd 密钥相关命令
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "密钥管理",
}

// keysNewCmd 生成新密钥
var keysNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新的 secp256k1 私钥和地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		km := key.NewKeyManager()
		priv, _, err := km.GenerateKeyPair()
		if err != nil {
			return fmt.Errorf("生成密钥失败: %w", err)
		}
		addr, err := address.NewAddressService(km).PrivateKeyToAddress(priv)
		if err != nil {
			return err
		}
		return printResult(map[string]string{
			"private_key": hex.EncodeToString(priv),
			"address":     addr,
		}, func() {
			pterm.Warning.Println("请妥善保管私钥，服务端从不接收私钥")
			renderKeyValues([][]string{
				{"私钥", hex.EncodeToString(priv)},
				{"地址", addr},
			})
		})
	},
}

// keysAddressCmd 显示私钥对应地址
var keysAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "显示 --key 对应的地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		priv, err := loadPrivateKey()
		if err != nil {
			return err
		}
		addr, err := newSigner().Address(priv)
		if err != nil {
			return err
		}
		return printResult(map[string]string{"address": addr}, func() {
			pterm.Info.Println(addr)
		})
	},
}

func init() {
	keysCmd.AddCommand(keysNewCmd, keysAddressCmd)
	keysAddressCmd.Flags().StringVar(&keyHex, "key", "", "hex 私钥（也可通过 "+privateKeyEnv+" 提供）")
}

// newSigner 创建本地签名工具
func newSigner() *auth.Signer {
	km := key.NewKeyManager()
	addrs := address.NewAddressService(km)
	return auth.NewSigner(km, addrs, signature.NewSignatureService(addrs))
}

// loadPrivateKey 从 --key 或环境变量读取私钥
func loadPrivateKey() ([]byte, error) {
	raw := keyHex
	if raw == "" {
		raw = os.Getenv(privateKeyEnv)
	}
	return parsePrivateKey(raw)
}

func parsePrivateKey(raw string) ([]byte, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if raw == "" {
		return nil, fmt.Errorf("%w: 缺少私钥，请使用 --key 或 %s", registry.ErrInvalidArgument, privateKeyEnv)
	}
	priv, err := hex.DecodeString(raw)
	if err != nil || len(priv) != 32 {
		return nil, fmt.Errorf("%w: 私钥必须是32字节hex", registry.ErrInvalidArgument)
	}
	return priv, nil
}
