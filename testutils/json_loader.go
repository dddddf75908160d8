// Load JSON test fixtures.

package librertos_testutils

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadJsonFile decodes the JSON document at fileName into obj.
func LoadJsonFile(fileName string, obj any) error {
	fileIo, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer fileIo.Close()

	decoder := json.NewDecoder(fileIo)
	if err := decoder.Decode(obj); err != nil {
		return fmt.Errorf("%v: error decoding %#v into %T", err, fileName, obj)
	}
	return nil
}
