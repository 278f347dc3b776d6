package allocator

import "testing"

func TestAlignUpDown(t *testing.T) {
	cases := []struct {
		addr, align, down, up uintptr
	}{
		{0, 8, 0, 0},
		{1, 8, 0, 8},
		{8, 8, 8, 8},
		{9, 8, 8, 16},
		{4095, 4096, 0, 4096},
		{4096, 4096, 4096, 4096},
		{4097, 4096, 4096, 8192},
	}

	for _, c := range cases {
		if got := AlignDown(c.addr, c.align); got != c.down {
			t.Errorf("AlignDown(%d, %d) = %d, want %d", c.addr, c.align, got, c.down)
		}

		if got := AlignUp(c.addr, c.align); got != c.up {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", c.addr, c.align, got, c.up)
		}
	}
}

func TestAlignPanicsOnNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a non-power-of-two alignment")
		}
	}()

	AlignDown(10, 3)
}
