package wind

// Lightweight fixed-size matrix algebra for the 3-state wind filter

// Vec3 is a 3-element column vector.
type Vec3 [3]float64

// Mat3 is a 3x3 matrix, row-major.
type Mat3 [3][3]float64

func (a Vec3) Add(b Vec3) (x Vec3) {
	for i := 0; i < 3; i++ {
		x[i] = a[i] + b[i]
	}
	return x
}

func (a Vec3) Scale(k float64) (x Vec3) {
	for i := 0; i < 3; i++ {
		x[i] = k * a[i]
	}
	return x
}

func (a Vec3) Dot(b Vec3) (x float64) {
	for i := 0; i < 3; i++ {
		x += a[i] * b[i]
	}
	return x
}

// Outer returns the matrix a·bᵗ.
func Outer(a, b Vec3) (x Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x[i][j] = a[i] * b[j]
		}
	}
	return x
}

func Identity3() (x Mat3) {
	for i := 0; i < 3; i++ {
		x[i][i] = 1
	}
	return x
}

func Diagonal3(d Vec3) (x Mat3) {
	for i := 0; i < 3; i++ {
		x[i][i] = d[i]
	}
	return x
}

func (a Mat3) Add(b Mat3) (x Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x[i][j] = a[i][j] + b[i][j]
		}
	}
	return x
}

func (a Mat3) Sub(b Mat3) (x Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x[i][j] = a[i][j] - b[i][j]
		}
	}
	return x
}

func (a Mat3) Scale(k float64) (x Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x[i][j] = k * a[i][j]
		}
	}
	return x
}

func (a Mat3) Mul(b Mat3) (x Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				x[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return x
}

func (a Mat3) MulVec(v Vec3) (x Vec3) {
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			x[i] += a[i][k] * v[k]
		}
	}
	return x
}

func (a Mat3) Transpose() (x Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x[i][j] = a[j][i]
		}
	}
	return x
}

// Symmetrize returns (a+aᵗ)/2, removing the rounding asymmetry of a covariance update.
func (a Mat3) Symmetrize() (x Mat3) {
	for i := 0; i < 3; i++ {
		x[i][i] = a[i][i]
		for j := i + 1; j < 3; j++ {
			m := 0.5 * (a[i][j] + a[j][i])
			x[i][j], x[j][i] = m, m
		}
	}
	return x
}

func (a Mat3) Det() float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}
