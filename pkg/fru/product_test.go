package fru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductInfoEncodeDecodeRoundTrip(t *testing.T) {
	a := &ProductInfoArea{AreaHeader: AreaHeader{Kind: AreaProductInfo, Offset: 0, Length: 48}}
	a.setupNew()
	require.NoError(t, a.SetManufacturerName(TypeASCIIOrUnicode, []byte("Acme")))
	require.NoError(t, a.SetProductName(TypeASCIIOrUnicode, []byte("Widget")))
	require.NoError(t, a.SetSerialNumber(TypeASCIIOrUnicode, []byte("SN-42")))
	require.NoError(t, a.SetAssetTag(TypeASCIIOrUnicode, []byte("Asset-1")))

	buf := make([]byte, 48)
	pl := &planner{}
	require.NoError(t, a.encode(buf, pl))

	decoded := &ProductInfoArea{AreaHeader: AreaHeader{Kind: AreaProductInfo}}
	require.NoError(t, decoded.decode(buf))

	name, err := decoded.Strings.Get("test", productName, false)
	require.NoError(t, err)
	require.Equal(t, []byte("Widget"), name.Payload)

	tag, err := decoded.Strings.Get("test", productAssetTag, false)
	require.NoError(t, err)
	require.Equal(t, []byte("Asset-1"), tag.Payload)
}

func TestProductInfoDeleteCustomReflowsOffsets(t *testing.T) {
	a := &ProductInfoArea{AreaHeader: AreaHeader{Kind: AreaProductInfo, Offset: 0, Length: 64}}
	a.setupNew()
	require.NoError(t, a.SetCustom(0, TypeASCIIOrUnicode, []byte("one")))
	require.NoError(t, a.SetCustom(1, TypeASCIIOrUnicode, []byte("two")))
	usedBefore := a.UsedLength

	require.NoError(t, a.DeleteCustom(0))
	require.Less(t, a.UsedLength, usedBefore)

	remaining, err := a.Strings.Get("test", 0, true)
	require.NoError(t, err)
	require.Equal(t, []byte("two"), remaining.Payload)
}
