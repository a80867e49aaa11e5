package bands

// 类型/能力谓词，供宿主代码做动态检查。

// IsBand 判断 v 是否为 Band
func IsBand(v any) bool {
	_, ok := v.(*Band)
	return ok
}

// IsChannel 判断 v 是否为 Channel
func IsChannel(v any) bool {
	_, ok := v.(*Channel)
	return ok
}

// IsDispatcher 判断 v 是否实现了 Dispatcher
func IsDispatcher(v any) bool {
	_, ok := v.(Dispatcher)
	return ok
}

// IsMethod 判断引用是否为绑定方法（Bind 构造）
//
// 绑定方法弱引用宿主实例，自由函数（Func 构造）弱引用句柄自身，
// 两者的弱引用策略不同。
func IsMethod(r Ref) bool {
	_, ok := r.(interface{ isMethod() })
	return ok
}
