/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/cmd"

func main() {
	cmd.Execute()
}
