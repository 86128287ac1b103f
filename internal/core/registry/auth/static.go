package auth

import (
	"fmt"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// AllowAll 接受任何地址
type AllowAll struct{}

// RequireAuth 总是成功
func (AllowAll) RequireAuth(string) error { return nil }

// AllowList 只接受列出的地址
type AllowList map[string]bool

// Allow 创建只接受给定地址的授权器
func Allow(addresses ...string) AllowList {
	list := make(AllowList, len(addresses))
	for _, a := range addresses {
		list[a] = true
	}
	return list
}

// RequireAuth 地址不在列表中时返回 ErrUnauthorized
func (l AllowList) RequireAuth(address string) error {
	if !l[address] {
		return fmt.Errorf("%w: no consent from %s", registry.ErrUnauthorized, address)
	}
	return nil
}
