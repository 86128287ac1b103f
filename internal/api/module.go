// Package api 组装对外接口
package api

import (
	"go.uber.org/fx"

	"github.com/weisyn/mintregistry/internal/api/http"
)

// Module 返回API模块
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),

		// 显式依赖服务器实例，确保生命周期钩子被注册
		fx.Invoke(func(*http.Server) {}),
	)
}
