// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package verflag defines the --version flag.
package verflag

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/wangtaoking1/zaqar-sample/version"
)

type versionValue int

const (
	VersionFalse versionValue = 0
	VersionTrue  versionValue = 1
	VersionRaw   versionValue = 2
)

const (
	strRawVersion   = "raw"
	versionFlagName = "version"
)

func (v *versionValue) IsBoolFlag() bool {
	return true
}

func (v *versionValue) Get() interface{} {
	return *v
}

func (v *versionValue) Set(s string) error {
	if s == strRawVersion {
		*v = VersionRaw
		return nil
	}
	boolVal, err := strconv.ParseBool(s)
	if boolVal {
		*v = VersionTrue
	} else {
		*v = VersionFalse
	}

	return err
}

func (v *versionValue) String() string {
	if *v == VersionRaw {
		return strRawVersion
	}

	return fmt.Sprintf("%v", *v == VersionTrue)
}

// Type is the type of the flag as required by the pflag.Value interface.
func (v *versionValue) Type() string {
	return "version"
}

var versionFlag = VersionFalse

// AddFlags registers this package's flags on arbitrary FlagSets, such that they point to the
// same value as the global flags.
func AddFlags(fs *pflag.FlagSet) {
	flag := fs.VarPF(&versionFlag, versionFlagName, "", "Print version information and quit.")
	flag.NoOptDefVal = "true"
}

// PrintAndExitIfRequested will check if the -version flag was passed
// and, if so, print the version and exit.
func PrintAndExitIfRequested() {
	switch versionFlag {
	case VersionRaw:
		fmt.Printf("%s\n", version.Get().Text())
		os.Exit(0)
	case VersionTrue:
		fmt.Printf("%s\n", version.Get())
		os.Exit(0)
	}
}
