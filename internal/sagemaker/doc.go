// Package sagemaker builds the structured request fragments the SageMaker
// operations take as JSON arguments: training channels, debugger hook and
// rule configurations, and hyperparameter maps.
//
// Builders are pure. Values keep the field and key order they are given in,
// so the JSON they encode to is stable.
package sagemaker
