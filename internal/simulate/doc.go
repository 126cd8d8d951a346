// Package simulate produces the synthetic outcome of a single pipeline
// stage: a duration drawn from the stage's configured range, a success or
// failure roll, illustrative resource metrics, and a stage-type-specific log
// script. Nothing in this package performs real work; a docker-build stage
// never builds an image, it only narrates one.
package simulate
