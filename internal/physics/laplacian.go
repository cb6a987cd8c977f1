package physics

import "github.com/san-kum/fieldsim/internal/field"

// Laplacian writes the five-point periodic Laplacian of u into dst.
// dst must not alias u.
func Laplacian(dst, u *field.Grid, dx float64) {
	ny, nx := u.NY, u.NX
	h2 := dx * dx
	for y := 0; y < ny; y++ {
		up := field.Wrap(y-1, ny) * nx
		down := field.Wrap(y+1, ny) * nx
		row := y * nx
		for x := 0; x < nx; x++ {
			left := field.Wrap(x-1, nx)
			right := field.Wrap(x+1, nx)
			c := u.Data[row+x]
			dst.Data[row+x] = (-4*c + u.Data[up+x] + u.Data[down+x] + u.Data[row+left] + u.Data[row+right]) / h2
		}
	}
}

func LaplacianOf(u *field.Grid, dx float64) *field.Grid {
	out := field.NewGrid(u.NY, u.NX)
	Laplacian(out, u, dx)
	return out
}
