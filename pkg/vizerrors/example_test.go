package vizerrors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := vizerrors.New(vizerrors.ErrorTypeReference, "element references an unknown point").
		WithDetail("element", "e-1").
		WithDetail("point", "p-7")

	fmt.Println(err.Error())

	// Output:
	// reference: element references an unknown point
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	originalErr := io.ErrUnexpectedEOF

	err := vizerrors.Wrap(originalErr, vizerrors.ErrorTypeFile, "failed to read container document").
		WithDetail("file", "mesh.yaml")

	if vizerrors.IsType(err, vizerrors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}

	fmt.Println(err)

	// Output:
	// This is a file error
	// file: failed to read container document: unexpected EOF
}

// ExampleErrorType demonstrates the conversion error categories.
func ExampleErrorType() {
	convErr := vizerrors.New(vizerrors.ErrorTypeConversion, "no volume cell type for arity").
		WithDetail("arity", 7)
	fmt.Printf("Conversion error: %v\n", convErr)

	typeErr := vizerrors.New(vizerrors.ErrorTypeType, "provided object is not a convertible container")
	fmt.Printf("Type error: %v\n", typeErr)

	keyErr := vizerrors.New(vizerrors.ErrorTypeKeyNotFound, "key is not tracked").
		WithDetail("key", "MASS")
	fmt.Printf("Key error: %v\n", keyErr)

	// Output:
	// Conversion error: conversion: no volume cell type for arity
	// Type error: type: provided object is not a convertible container
	// Key error: key_not_found: key is not tracked
}

// ExampleIsRetryable shows that conversion errors are never retryable.
func ExampleIsRetryable() {
	uploadErr := vizerrors.New(vizerrors.ErrorTypeConnection, "upload interrupted")
	refErr := vizerrors.New(vizerrors.ErrorTypeReference, "unknown particle")

	if vizerrors.IsRetryable(uploadErr) {
		fmt.Println("Connection error is retryable")
	}

	if !vizerrors.IsRetryable(refErr) {
		fmt.Println("Reference error is not retryable")
	}

	// Output:
	// Connection error is retryable
	// Reference error is not retryable
}

// Example_errorChain shows how a conversion failure reads once wrapped by
// the batch runner.
func Example_errorChain() {
	err := convertDocument()
	if err != nil {
		err = vizerrors.Wrap(err, vizerrors.ErrorTypeInternal, "batch job failed").
			WithDetail("job", 3)

		fmt.Println("Full error chain:", err)
		fmt.Println("Outermost is conversion:", vizerrors.IsType(err, vizerrors.ErrorTypeConversion))
		fmt.Println("Chain has conversion:", vizerrors.HasType(err, vizerrors.ErrorTypeConversion))
	}

	// Output:
	// Full error chain: internal: batch job failed: conversion: no volume cell type for arity
	// Outermost is conversion: false
	// Chain has conversion: true
}

func convertDocument() error {
	return vizerrors.New(vizerrors.ErrorTypeConversion, "no volume cell type for arity").
		WithDetail("arity", 7)
}

// Example_customErrorHandling shows how to read error details.
func Example_customErrorHandling() {
	handleError := func(err error) {
		if err == nil {
			return
		}

		if vizErr, ok := err.(*vizerrors.Error); ok {
			fmt.Printf("Error Type: %s\n", vizErr.Type)
			fmt.Printf("Message: %s\n", vizErr.Message)

			if arity, ok := vizErr.Detail("arity"); ok {
				fmt.Printf("  arity: %v\n", arity)
			}
		}
	}

	handleError(vizerrors.Newf(vizerrors.ErrorTypeConversion, "cannot classify a %d-point cell", 9).
		WithDetail("arity", 9))

	// Output:
	// Error Type: conversion
	// Message: cannot classify a 9-point cell
	//   arity: 9
}
