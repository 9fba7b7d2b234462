package tourapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/petplaces-service/internal/repository"
)

const sampleResponse = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header>
    <resultCode>0000</resultCode>
    <resultMsg>OK</resultMsg>
  </header>
  <body>
    <items>
      <item>
        <contentid>A1</contentid>
        <title>오르디</title>
        <addr1>부산 수영구 광안해변로 344번길 17-1</addr1>
        <mapx>129.118</mapx>
        <mapy>35.156</mapy>
        <zipcode>48305</zipcode>
      </item>
      <item>
        <contentid>B2</contentid>
        <title>웨스턴챔버</title>
      </item>
    </items>
    <numOfRows>10</numOfRows>
    <pageNo>1</pageNo>
    <totalCount>2</totalCount>
  </body>
</response>`

const serviceErrorResponse = `<OpenAPI_ServiceResponse>
  <cmmMsgHeader>
    <errMsg>SERVICE ERROR</errMsg>
    <returnAuthMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</returnAuthMsg>
    <returnReasonCode>30</returnReasonCode>
  </cmmMsgHeader>
</OpenAPI_ServiceResponse>`

func TestDecodeWellFormedResponse(t *testing.T) {
	d := NewXMLDecoder()

	decoded, err := d.Decode([]byte(sampleResponse))

	require.NoError(t, err)
	assert.Equal(t, "0000", decoded.ResultCode)
	assert.Equal(t, "OK", decoded.ResultMsg)
	assert.Equal(t, "2", decoded.TotalCount)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "A1", decoded.Items[0]["contentid"])
	assert.Equal(t, "오르디", decoded.Items[0]["title"])
	assert.Equal(t, "129.118", decoded.Items[0]["mapx"])
	// Unknown tags are preserved, not dropped.
	assert.Equal(t, "48305", decoded.Items[0]["zipcode"])
	assert.Equal(t, "웨스턴챔버", decoded.Items[1]["title"])
}

func TestDecodeEmbeddedServiceError(t *testing.T) {
	d := NewXMLDecoder()

	_, err := d.Decode([]byte(serviceErrorResponse))

	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrUpstreamService))
	assert.Contains(t, err.Error(), "SERVICE_KEY_IS_NOT_REGISTERED_ERROR")
}

func TestDecodeMalformedXML(t *testing.T) {
	d := NewXMLDecoder()

	// Unterminated attribute value is irrecoverable even for the tolerant
	// scanner.
	_, err := d.Decode([]byte(`<response><item name="broken></response>`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrParse))
}

func TestDecodeTruncatedBody(t *testing.T) {
	d := NewXMLDecoder()

	// An unclosed element tree is irrecoverable even for the non-strict
	// scanner; a cut-off body surfaces as a parse failure, never as a
	// partial result.
	_, err := d.Decode([]byte(`<response><header><resultCode>00`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrParse))
}

func TestDecodeSplitCharacterData(t *testing.T) {
	d := NewXMLDecoder()

	// A CDATA section splits one element's text across multiple tokens;
	// the chunks must be reassembled, not overwritten.
	decoded, err := d.Decode([]byte(`<response><header><resultCode>0000</resultCode></header><body><items><item><title>오르<![CDATA[디]]></title></item></items></body></response>`))

	require.NoError(t, err)
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "오르디", decoded.Items[0]["title"])
}

func TestDecodeNonXMLBody(t *testing.T) {
	d := NewXMLDecoder()

	_, err := d.Decode([]byte(`upstream is having a bad day`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrParse))
}

func TestDecodeEmptyItems(t *testing.T) {
	d := NewXMLDecoder()

	decoded, err := d.Decode([]byte(`<response><header><resultCode>0000</resultCode><resultMsg>OK</resultMsg></header><body><items></items><totalCount>0</totalCount></body></response>`))

	require.NoError(t, err)
	assert.Empty(t, decoded.Items)
	assert.Equal(t, "0", decoded.TotalCount)
}
