package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/cropline/cropline/internal/file"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

type config struct {
	APIAddress string `json:"apiAddress"`
	APIToken   string `json:"apiToken"`
	Actor      string `json:"actor"`
}

func getConfig() (*config, error) {
	croplineHome, err := getCroplineHome()
	if err != nil {
		return nil, errors.Wrapf(err, "error finding cropline home")
	}
	croplineConfigFile := path.Join(croplineHome, "config")
	if !file.Exists(croplineConfigFile) {
		return nil, errors.Errorf(
			"no cropline configuration was found at %s; please use "+
				"`cropline login` to continue\n",
			croplineConfigFile,
		)
	}

	configBytes, err := ioutil.ReadFile(croplineConfigFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading cropline config file at %s",
			croplineConfigFile,
		)
	}

	config := &config{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing cropline config file at %s",
			croplineConfigFile,
		)
	}

	return config, nil
}

func saveConfig(config *config) error {
	croplineHome, err := getCroplineHome()
	if err != nil {
		return errors.Wrapf(err, "error finding cropline home")
	}
	if _, err := os.Stat(croplineHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of cropline home at %s",
				croplineHome,
			)
		}
		// The directory doesn't exist-- create it
		if err := os.MkdirAll(croplineHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating cropline home at %s",
				croplineHome,
			)
		}
	}
	croplineConfigFile := path.Join(croplineHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(croplineConfigFile, configBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", croplineConfigFile)
	}
	return nil
}

func deleteConfig() error {
	croplineHome, err := getCroplineHome()
	if err != nil {
		return errors.Wrapf(err, "error finding cropline home")
	}
	croplineConfigFile := path.Join(croplineHome, "config")

	if err := os.Remove(croplineConfigFile); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	return nil
}

func getCroplineHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}

	return path.Join(homeDir, ".cropline"), nil
}
