/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/cypridina/glotk/cmd"

func main() {
	cmd.Execute()
}
