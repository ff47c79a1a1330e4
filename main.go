package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/loqet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
