/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/KC-426/aeonaxy/cmd"

func main() {
	cmd.Execute()
}
