//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary = "doctrans"
	pkg    = "./cmd/doctrans"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the doctrans binary into the working directory
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, pkg)
}

// Install installs doctrans into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", pkg)
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning")
	return os.RemoveAll(binary)
}
