package kernelargs

import "errors"

var (
	errKernelSizeZero      = errors.New("kernelargs: kernel_size must be > 0")
	errAreasSizeMisaligned = errors.New("kernelargs: areas_size is not a multiple of the area entry size")
)
