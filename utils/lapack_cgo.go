//go:build cgo
// +build cgo

package utils

/*
#cgo CFLAGS: -march=native -mavx -mavx2
#cgo LDFLAGS: -lopenblas -llapacke -lgfortran -lm -lpthread
#include <cblas.h>
#include <lapacke.h>
*/
import "C"

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	netblas "gonum.org/v1/netlib/blas/netlib"
	netlapack "gonum.org/v1/netlib/lapack/netlib"
)

// Vandermonde inversion dominates element construction, so route the
// dense kernels through openblas/lapacke when cgo is available.
func init() {
	blas64.Use(netblas.Implementation{})
	lapack64.Use(netlapack.Implementation{})
	fmt.Println("Using netlib to accelerate BLAS and LAPACK")
}
