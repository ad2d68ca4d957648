package checkout

import "errors"

var ErrEmptyCart = errors.New("cannot place an order for an empty cart")
