package fru

const (
	productFieldStart = 3
	productNumFixed   = 7

	productManufacturer = 0
	productName         = 1
	productPartModel    = 2
	productVersion      = 3
	productSerial       = 4
	productAssetTag     = 5
	productFruFileID    = 6
)

// ProductInfoArea holds the decoded Product Info area.
type ProductInfoArea struct {
	AreaHeader
	Version  byte
	LangCode byte
	Strings  *StringArray
}

// Header implements AreaRecord.
func (a *ProductInfoArea) Header() *AreaHeader { return &a.AreaHeader }

func (a *ProductInfoArea) setupNew() {
	a.Version = 1
	a.LangCode = englishLangCode
	a.Strings = NewStringArray(productNumFixed, productFieldStart)
	a.UsedLength = productFieldStart + productNumFixed + 2
	a.OrigUsedLength = a.UsedLength
}

// unicodeHint reports whether field index should be language-aware
// rather than forced to plain ASCII-8. Serial number and FRU file ID
// are always forced to ASCII regardless of LangCode; manufacturer name,
// product name, part/model number, version, asset tag, and every
// custom field follow the area's language code.
func (a *ProductInfoArea) unicodeHint(index int) bool {
	switch index {
	case productSerial, productFruFileID:
		return false
	default:
		return a.LangCode != englishLangCode
	}
}

func (a *ProductInfoArea) decode(data []byte) error {
	if len(data) < emptyLength[AreaProductInfo] {
		return newErr("decodeProductInfo", CodeBadFormat, "product info area too short")
	}
	areaLen := int(data[1]) * 8
	if areaLen == 0 || areaLen > len(data) {
		return newErr("decodeProductInfo", CodeBadFormat, "product info area declares invalid length")
	}
	if !checksumValid(data[:areaLen]) {
		return newErr("decodeProductInfo", CodeBadFormat, "product info area checksum failed")
	}
	a.Version = data[0]
	a.LangCode = data[2]
	sa, termOffset, err := DecodeStringArray("decodeProductInfo", data[:areaLen], productNumFixed, productFieldStart, a.unicodeHint)
	if err != nil {
		return err
	}
	a.Strings = sa
	a.Length = areaLen
	a.UsedLength = termOffset + 2
	a.OrigUsedLength = a.UsedLength
	return nil
}

func (a *ProductInfoArea) encode(buf []byte, pl *planner) error {
	header := []byte{a.Version, byte(a.Length / 8), a.LangCode}
	return encodeStringArrayArea(&a.AreaHeader, buf, pl, header, a.Strings, a.unicodeHint)
}

func (a *ProductInfoArea) capacity() int {
	return a.Length - a.UsedLength
}

func (a *ProductInfoArea) setFixed(op string, index int, typ StringType, payload []byte) error {
	diff, err := a.Strings.Set(op, index, false, typ, payload, a.unicodeHint(index), a.capacity())
	if err != nil {
		return err
	}
	a.UsedLength += diff
	a.Changed = true
	return nil
}

// SetManufacturerName sets the product manufacturer name field.
func (a *ProductInfoArea) SetManufacturerName(typ StringType, payload []byte) error {
	return a.setFixed("SetProductInfoManufacturerName", productManufacturer, typ, payload)
}

// SetProductName sets the product name field.
func (a *ProductInfoArea) SetProductName(typ StringType, payload []byte) error {
	return a.setFixed("SetProductInfoProductName", productName, typ, payload)
}

// SetPartModelNumber sets the product part/model number field.
func (a *ProductInfoArea) SetPartModelNumber(typ StringType, payload []byte) error {
	return a.setFixed("SetProductInfoPartModelNumber", productPartModel, typ, payload)
}

// SetVersion sets the product version field.
func (a *ProductInfoArea) SetVersion(typ StringType, payload []byte) error {
	return a.setFixed("SetProductInfoVersion", productVersion, typ, payload)
}

// SetSerialNumber sets the product serial number field.
func (a *ProductInfoArea) SetSerialNumber(typ StringType, payload []byte) error {
	return a.setFixed("SetProductInfoSerialNumber", productSerial, typ, payload)
}

// SetAssetTag sets the product asset tag field.
func (a *ProductInfoArea) SetAssetTag(typ StringType, payload []byte) error {
	return a.setFixed("SetProductInfoAssetTag", productAssetTag, typ, payload)
}

// SetFruFileID sets the product FRU file ID field.
func (a *ProductInfoArea) SetFruFileID(typ StringType, payload []byte) error {
	return a.setFixed("SetProductInfoFruFileID", productFruFileID, typ, payload)
}

// SetCustom sets or appends custom field index.
func (a *ProductInfoArea) SetCustom(index int, typ StringType, payload []byte) error {
	diff, err := a.Strings.Set("SetProductInfoCustom", index, true, typ, payload, a.unicodeHint(productNumFixed+index), a.capacity())
	if err != nil {
		return err
	}
	a.UsedLength += diff
	a.Changed = true
	return nil
}

// DeleteCustom removes custom field index, reflowing following entries.
func (a *ProductInfoArea) DeleteCustom(index int) error {
	diff, err := a.Strings.Set("DeleteProductInfoCustom", index, true, 0, nil, false, a.capacity())
	if err != nil {
		return err
	}
	a.UsedLength += diff
	a.Changed = true
	return nil
}
