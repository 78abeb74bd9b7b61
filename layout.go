// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import "unsafe"

// cacheLineSize is the assumed destructive interference granularity.
const cacheLineSize = 64

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is a full cache line of padding to prevent false sharing.
type pad [cacheLineSize]byte

// padShort is padding to fill a cache line after an 8-byte field.
type padShort [cacheLineSize - 8]byte

// The false-sharing layout is load-bearing: these declarations fail to
// compile if an indirect or pointer slot stops being an exact multiple
// of a cache line, or if head and tail of a queue drift onto the same
// cache line. Generic Slot[T] layouts depend on the instantiation and
// are checked per-type in layout_test.go.
var (
	_ [0]byte = [unsafe.Sizeof(indirectSlot{}) % cacheLineSize]byte{}
	_ [0]byte = [unsafe.Sizeof(ptrSlot{}) % cacheLineSize]byte{}

	_ [unsafe.Offsetof(QueueIndirect{}.tail) - unsafe.Offsetof(QueueIndirect{}.head) - cacheLineSize]byte
	_ [unsafe.Offsetof(QueuePtr{}.tail) - unsafe.Offsetof(QueuePtr{}.head) - cacheLineSize]byte
)
