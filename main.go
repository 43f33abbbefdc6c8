package main

import (
	"os"

	"github.com/susilcse/PAM-AI-Rule-Engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
