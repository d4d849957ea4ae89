package domain

import (
	"errors"
	"testing"
)

func TestIndicators_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(*Indicators)
		wantErr bool
	}{
		{name: "valid snapshot", mut: func(in *Indicators) {}},
		{name: "change24h too high", mut: func(in *Indicators) { in.Change24h = 1.2 }, wantErr: true},
		{name: "change24h too low", mut: func(in *Indicators) { in.Change24h = -1.01 }, wantErr: true},
		{name: "vol negative", mut: func(in *Indicators) { in.Volatility = -0.1 }, wantErr: true},
		{name: "fearGreed above 100", mut: func(in *Indicators) { in.FearGreed = 101 }, wantErr: true},
		{name: "momentum out of range", mut: func(in *Indicators) { in.Momentum = 2 }, wantErr: true},
		{name: "unknown regime", mut: func(in *Indicators) { in.Regime = "sideways" }, wantErr: true},
		{name: "activity above 1", mut: func(in *Indicators) { in.Activity = 1.5 }, wantErr: true},
		{name: "unknown dominance", mut: func(in *Indicators) { in.Dominance = "sol" }, wantErr: true},
		{name: "boundary values ok", mut: func(in *Indicators) {
			in.Change24h = -1
			in.Volatility = 1
			in.FearGreed = 100
			in.Momentum = -1
			in.Activity = 0
		}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			in := DemoIndicators()
			tc.mut(&in)
			err := in.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrInvalidIndicators) {
					t.Fatalf("error should wrap ErrInvalidIndicators, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("expected valid snapshot, got %v", err)
			}
		})
	}
}

func TestDemoIndicators_AreValid(t *testing.T) {
	if err := DemoIndicators().Validate(); err != nil {
		t.Fatalf("demo snapshot must validate: %v", err)
	}
}
