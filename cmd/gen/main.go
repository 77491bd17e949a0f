package main

import (
	"Presensia/internal/repository"
	"Presensia/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
