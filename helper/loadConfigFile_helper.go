package helper

import (
	"os"

	"gopkg.in/yaml.v3"

	"review_pal/log"
	"review_pal/model"
)

func LoadConfigFile(cfg *model.Task) {
	f, err := os.ReadFile("config_file/review-config.yaml")
	if err != nil {
		log.Error(err)
	}

	err = yaml.Unmarshal(f, &cfg)
	if err != nil {
		log.Error(err)
	}
}
