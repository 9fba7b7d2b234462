package tourapi

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/user/petplaces-service/internal/repository"
)

// Item is one upstream record as a flat tag→value map. Unknown tags are
// preserved; downstream consumers only read the names they know.
type Item map[string]string

// Decoded is the structured form of a successfully parsed response body.
type Decoded struct {
	ResultCode string
	ResultMsg  string
	Items      []Item
	TotalCount string
}

// Decoder converts raw upstream response bodies into Decoded results. It
// returns repository.ErrUpstreamService for bodies that carry an embedded
// service-error payload despite HTTP 200, and repository.ErrParse for
// irrecoverably malformed XML. It never panics.
type Decoder interface {
	Decode(body []byte) (*Decoded, error)
}

// XMLDecoder is a schema-less token-scanning decoder. The upstream emits
// irregular XML with no published schema, so fields are extracted as flat
// open/close tag pairs rather than unmarshalled into a fixed struct.
type XMLDecoder struct{}

func NewXMLDecoder() *XMLDecoder {
	return &XMLDecoder{}
}

// Tag names of interest in the regular and the error payload shapes.
const (
	tagItem          = "item"
	tagResultCode    = "resultCode"
	tagResultMsg     = "resultMsg"
	tagTotalCount    = "totalCount"
	tagErrHeader     = "cmmMsgHeader"
	tagErrMsg        = "errMsg"
	tagReturnAuthMsg = "returnAuthMsg"
)

func (d *XMLDecoder) Decode(body []byte) (*Decoded, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false

	result := &Decoded{}
	var (
		inItem      bool
		inErrHeader bool
		current     Item
		path        []string
		errMsg      string
		authMsg     string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errMsg != "" || authMsg != "" {
				break
			}
			return nil, fmt.Errorf("%w: %v", repository.ErrParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			path = append(path, t.Name.Local)
			switch t.Name.Local {
			case tagItem:
				inItem = true
				current = Item{}
			case tagErrHeader:
				inErrHeader = true
			}
		case xml.EndElement:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
			switch t.Name.Local {
			case tagItem:
				if current != nil {
					result.Items = append(result.Items, current)
				}
				inItem = false
				current = nil
			case tagErrHeader:
				inErrHeader = false
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || len(path) == 0 {
				continue
			}
			field := path[len(path)-1]
			// Append, never assign: one element's text can arrive as
			// several tokens (plain text mixed with CDATA sections).
			switch {
			case inItem && current != nil && field != tagItem:
				current[field] += text
			case inErrHeader && field == tagErrMsg:
				errMsg += text
			case inErrHeader && field == tagReturnAuthMsg:
				authMsg += text
			case field == tagResultCode:
				result.ResultCode += text
			case field == tagResultMsg:
				result.ResultMsg += text
			case field == tagTotalCount:
				result.TotalCount += text
			}
		}
	}

	if errMsg != "" || authMsg != "" {
		msg := errMsg
		switch {
		case errMsg == "":
			msg = authMsg
		case authMsg != "":
			msg = fmt.Sprintf("%s (%s)", errMsg, authMsg)
		}
		return nil, fmt.Errorf("%w: %s", repository.ErrUpstreamService, msg)
	}

	if result.ResultCode == "" && len(result.Items) == 0 {
		return nil, fmt.Errorf("%w: no recognizable response structure", repository.ErrParse)
	}

	return result, nil
}
