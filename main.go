package main

import meowtrition "github.com/VeraMao/meowtrition-v2/cmd/meowtrition"

func main() {
	meowtrition.Execute()
}
