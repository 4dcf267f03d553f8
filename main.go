package main

import (
	"github.com/ProjectsTask/EasySwapEngine/cmd"
)

func main() {
	cmd.Execute()
}
