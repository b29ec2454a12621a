package qtensor_test

import (
	"fmt"

	"github.com/hupe1980/qtensor"
	"github.com/hupe1980/qtensor/numa"
	"github.com/hupe1980/qtensor/quant"
)

func Example() {
	m := qtensor.NewMatrix[float32](qtensor.WithAllocator(numa.NewHeapAllocator()))
	defer m.Release()

	_ = m.Resize(4, 3)
	for r := range m.Rows() {
		for c := range m.Cols() {
			m.Set(r, c, float32(r*m.Cols()+c))
		}
	}

	fmt.Println(m.Row(2))
	fmt.Println(m.Dilate(1, 2).Row(1))
	// Output:
	// [6 7 8]
	// [9 10 11]
}

func ExampleMatrix_SetQScheme() {
	w := qtensor.NewMatrix[int8](qtensor.WithAllocator(numa.NewHeapAllocator()))
	defer w.Release()

	w.SetQScheme(quant.PerChannelSymmetric)
	_ = w.Resize(3, 16)
	copy(w.Scales(), []float32{0.5, 0.25, 0.125})

	fmt.Println(w.QScheme(), w.Scales()[:3])

	w.SetQScheme(quant.PerTensorSymmetric)
	fmt.Println(w.QScheme(), w.Scales())
	// Output:
	// per-channel-symmetric [0.5 0.25 0.125]
	// per-tensor-symmetric [1]
}

func ExampleVector() {
	v := qtensor.NewVector[int32](qtensor.WithAllocator(numa.NewHeapAllocator()))
	defer v.Release()

	_ = v.Resize(5)
	v.SetZero()
	fmt.Println(v.Size(), v.Capacity(), v.Data())
	// Output: 5 16 [0 0 0 0 0]
}
