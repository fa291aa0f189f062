// Command aerocore is a thin driver over the dynamics core: parse a
// vehicle config, build a Vehicle, step it, report kinematics, expressed
// as a proper cobra CLI instead of a hand-edited main function per
// experiment.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := Execute(); err != nil {
		logrus.WithError(err).Error("aerocore: command failed")
		os.Exit(1)
	}
}
