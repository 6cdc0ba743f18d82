// Package metrics reduces a headless run to scalar figures. Every metric
// satisfies scene.Metric.
package metrics
