package cluster

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

// ReadManifestFile decodes every Kubernetes object of a YAML or JSON file
func ReadManifestFile(path string) ([]*unstructured.Unstructured, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %q", path)
	}
	defer f.Close()

	objs, err := ReadManifests(f)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %q", path)
	}
	if len(objs) == 0 {
		return nil, errors.Errorf("manifest %q holds no objects", path)
	}
	return objs, nil
}

// ReadManifests decodes the documents of a multi-document YAML stream.
// Empty documents are skipped and List objects are flattened.
func ReadManifests(r io.Reader) ([]*unstructured.Unstructured, error) {
	reader := yamlutil.NewYAMLReader(bufio.NewReader(r))
	objects := make([]*unstructured.Unstructured, 0)

	for {
		doc, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return objects, errors.Wrap(err, "read yaml document")
		}
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}

		data, err := yaml.YAMLToJSON(doc)
		if err != nil {
			return objects, errors.Wrap(err, "convert yaml to json")
		}
		if string(bytes.TrimSpace(data)) == "null" {
			continue
		}

		obj := &unstructured.Unstructured{}
		if err := obj.UnmarshalJSON(data); err != nil {
			return objects, errors.Wrap(err, "decode to unstructured")
		}

		if obj.IsList() {
			list, err := obj.ToList()
			if err != nil {
				return objects, errors.Wrap(err, "decode list")
			}
			for i := range list.Items {
				objects = append(objects, &list.Items[i])
			}
			continue
		}
		objects = append(objects, obj)
	}

	return objects, nil
}
