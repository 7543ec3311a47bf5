package detection

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// ExtraDataString converts the extra data of a flag to a string in the form [key=value key=value].
func ExtraDataString(data *orderedmap.OrderedMap[string, any]) string {
	if data == nil {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	count := data.Len()
	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		fmt.Fprintf(&sb, "%s=%v", key, v)

		count--
		if count > 0 {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
