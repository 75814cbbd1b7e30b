package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// GetClusterConfig returns the Kubernetes client configuration. An explicit
// kubeconfig path wins, then the in-cluster service account, then
// KUBECONFIG and finally ~/.kube/config.
func GetClusterConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig == "" {
		// Try to use in-cluster config first
		config, err := rest.InClusterConfig()
		if err == nil {
			return config, nil
		}

		kubeconfig = os.Getenv("KUBECONFIG")
	}

	if kubeconfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %v", err)
		}
		kubeconfig = filepath.Join(home, ".kube", "config")
	}

	if !FileExists(kubeconfig) {
		return nil, fmt.Errorf("kubeconfig file not found at %s", kubeconfig)
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build config from kubeconfig: %v", err)
	}

	return config, nil
}

// GetClientSet returns a Kubernetes clientset
func GetClientSet(kubeconfig string) (kubernetes.Interface, error) {
	config, err := GetClusterConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get cluster config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes clientset: %w", err)
	}

	return clientset, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreateDirIfNotExists creates a directory if it doesn't exist
func CreateDirIfNotExists(dirPath string) error {
	if !DirExists(dirPath) {
		return os.MkdirAll(dirPath, 0755)
	}
	return nil
}

// SafeWriteFile writes data to a file, creating its parent directory
func SafeWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create directory for file %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
