//go:build tk

package main

import (
	"github.com/menta2k/deskewer/pkg/presenter"
	"github.com/menta2k/deskewer/pkg/presenter/tkview"
)

func newScreenPresenter(maxDim int) (presenter.Presenter, error) {
	return tkview.New(maxDim, maxDim), nil
}
