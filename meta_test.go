package cropline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testAPIAddress          = "localhost:8080"
	testAPIToken            = "11235813213455"
	testActor               = "nikos@cropline.io"
	testClientAllowInsecure = true
)

func requireAPIVersionAndType(
	t *testing.T,
	obj interface{},
	expectedType string,
) {
	objJSON, err := json.Marshal(obj)
	require.NoError(t, err)
	objMap := map[string]interface{}{}
	err = json.Unmarshal(objJSON, &objMap)
	require.NoError(t, err)
	require.Equal(t, APIVersion, objMap["apiVersion"])
	require.Equal(t, expectedType, objMap["kind"])
}
