// Package lib 包含基础设施工具库
//
// 本目录包含与信号总线语义无关的通用工具库：
//
//   - log: 日志封装
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-bands/pkg/lib/log"
//	)
package lib
