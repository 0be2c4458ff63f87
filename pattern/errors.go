package pattern

import "errors"

var (
	// ErrPatternTooLarge 表示网格或画布超过了配置的上限。
	ErrPatternTooLarge = errors.New("pattern too large")
	// ErrNoPattern 表示尚未生成任何图案，导出与缩放视图无从读取。
	ErrNoPattern = errors.New("no pattern generated yet")
	// ErrInvalidOption 表示枚举选项无法识别。
	ErrInvalidOption = errors.New("invalid option")
)
