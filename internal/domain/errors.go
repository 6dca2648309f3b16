package domain

import "errors"

var (
	ErrSubscriptionSetup     = errors.New("log subscription setup failed")
	ErrEventFetch            = errors.New("event transaction fetch failed")
	ErrDerivation            = errors.New("pool address derivation failed")
	ErrBalanceQuery          = errors.New("vault balance query failed")
	ErrConfigAccountNotFound = errors.New("no amm config account found")
)
