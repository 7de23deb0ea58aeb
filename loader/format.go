package loader

import (
	"strings"

	"tachikoma_config/schema"
	"tachikoma_config/util/file"
	"tachikoma_config/util/yaml"

	"github.com/cockroachdb/errors"
)

// ModelFormatsSection represents section of format config holding shipped model formats
const ModelFormatsSection = "model_formats"

// SetModelFormat sets edit format of <model> in the format config file at <path> to <format>.
//
// Model name is lowercased. Existing comments and formatting of the file are kept, missing file, section and
// directories are created.
//
// Returns schema.UnknownEditFormatError if <format> is not known.
func SetModelFormat(path, model, format string) error {
	editFormat, err := schema.ParseEditFormat(format)
	if err != nil {
		return errors.Wrap(err, "Parse edit format")
	}
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" || strings.ContainsAny(model, ":#") {
		return errors.Newf("Bad model name: %q", model)
	}

	content := file.ReadTextSafe(path, "")
	out, err := yaml.SetScalar([]byte(content), ModelFormatsSection, model, string(editFormat))
	if err != nil {
		return errors.Wrap(err, "Set model format")
	}
	if err := file.WriteText(path, string(out)); err != nil {
		return errors.Wrap(err, "Save format config")
	}
	return nil
}
