package config

import "github.com/spf13/viper"

const (
	// DefaultConfigFile is read when no --config flag is given
	DefaultConfigFile = "config.json"

	// DefaultNamespace hosts the probe pods
	DefaultNamespace = "validate"

	// DefaultDeployDirectory holds the probe daemonset manifests
	DefaultDeployDirectory = "k8s"

	// DefaultNamespacePause bounds the namespace wait, in seconds
	DefaultNamespacePause = 5

	// DefaultPodPause bounds the probe pod wait, in seconds
	DefaultPodPause = 60

	// DefaultPollInterval is the readiness polling period, in seconds
	DefaultPollInterval = 1
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("script.namespacePause", DefaultNamespacePause)
	v.SetDefault("script.podPause", DefaultPodPause)
	v.SetDefault("script.pollInterval", DefaultPollInterval)
	v.SetDefault("script.podNamespace", DefaultNamespace)
	v.SetDefault("script.deployFiles.directory", DefaultDeployDirectory)
	v.SetDefault("script.deployFiles.multi.name", "multi")
	v.SetDefault("script.deployFiles.huge2mi.name", "huge2mi")
	v.SetDefault("script.deployFiles.huge1gi.name", "huge1gi")
	v.SetDefault("script.deployFiles.reserve.name", "reserve")
	v.SetDefault("script.deployFiles.tunedrt.name", "tunedrt")
	v.SetDefault("script.show.timeStamps", false)
	v.SetDefault("script.show.description", false)
	v.SetDefault("script.show.ra2Spec", false)
}
