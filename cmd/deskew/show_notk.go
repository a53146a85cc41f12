//go:build !tk

package main

import (
	"errors"

	"github.com/menta2k/deskewer/pkg/presenter"
)

func newScreenPresenter(int) (presenter.Presenter, error) {
	return nil, errors.New("this build has no display support; rebuild with -tags tk or use -debug-dir")
}
