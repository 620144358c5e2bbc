package aidirector

import (
	"testing"
	"time"

	"github.com/racecraft/aidirector/internal/aiconfig"
	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
)

func TestOnClientCollisionStopsNearbyState(t *testing.T) {
	d := newTestDirector(aiconfig.DefaultConfig())

	player := entrycar.New(0, entrycar.AiModeNone)
	player.Position = geom.Vec3{}

	s := &entrycar.AiState{Initialized: true, Position: geom.Vec3{X: 10}, MaxSpeed: 30, TargetSpeed: 30}
	aiCar := entrycar.New(1, entrycar.AiModeAuto)
	aiCar.AiStates = []*entrycar.AiState{s}

	d.OnClientCollision(player, aiCar)

	if s.TargetSpeed != 30 {
		t.Errorf("TargetSpeed = %v immediately after collision, want unchanged 30 (the stop is scheduled, not immediate)", s.TargetSpeed)
	}

	time.Sleep(600 * time.Millisecond)
	if s.TargetSpeed != 0 {
		t.Errorf("TargetSpeed = %v within the [100,500]ms window, want 0 (stop_for_collision fired)", s.TargetSpeed)
	}

	time.Sleep(500 * time.Millisecond)
	if s.TargetSpeed != 30 {
		t.Errorf("TargetSpeed = %v after the resume delay, want restored MaxSpeed 30", s.TargetSpeed)
	}
}

func TestOnClientCollisionIgnoresDistantState(t *testing.T) {
	d := newTestDirector(aiconfig.DefaultConfig())

	player := entrycar.New(0, entrycar.AiModeNone)
	player.Position = geom.Vec3{}

	s := &entrycar.AiState{Initialized: true, Position: geom.Vec3{X: 1000}, MaxSpeed: 30, TargetSpeed: 30}
	aiCar := entrycar.New(1, entrycar.AiModeAuto)
	aiCar.AiStates = []*entrycar.AiState{s}

	d.OnClientCollision(player, aiCar)

	if s.TargetSpeed != 30 {
		t.Errorf("TargetSpeed = %v, want unchanged 30 for a distant AI state", s.TargetSpeed)
	}
}
