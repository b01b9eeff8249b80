package main

import "github.com/DaniellePashayan/post-rejections-idx/internal/cli"

func main() {
	cli.Execute()
}
