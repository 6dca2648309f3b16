package main

import (
	"testing"

	"go.uber.org/fx"
)

func TestModulesGraph(t *testing.T) {
	if err := fx.ValidateApp(modules(), fx.NopLogger); err != nil {
		t.Fatalf("invalid dependency graph: %v", err)
	}
}
