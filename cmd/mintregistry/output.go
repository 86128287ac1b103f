package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

// printResult 按 --output 输出结果：json 直接编码，table 调用 render
func printResult(v interface{}, render func()) error {
	switch globalFlags.OutputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "table", "":
		render()
		return nil
	default:
		return fmt.Errorf("未知输出格式: %s", globalFlags.OutputFormat)
	}
}

// renderKeyValues 两列表格
func renderKeyValues(rows [][]string) {
	_ = pterm.DefaultTable.WithHasHeader(false).WithData(pterm.TableData(rows)).Render()
}
