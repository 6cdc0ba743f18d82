package metrics

import "github.com/san-kum/xmastree/internal/scene"

// Standard returns the metrics recorded for every stored run.
func Standard(baseHeight float64) []scene.Metric {
	return []scene.Metric{
		NewSettleTime(1e-3),
		NewOvershoot(),
		NewModeSwitches(),
		NewCameraSway(baseHeight),
		NewSpread(),
		NewStability(1e-3),
	}
}
