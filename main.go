/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/amhafiz/timetabler/cmd"

func main() {
	cmd.Execute()
}
