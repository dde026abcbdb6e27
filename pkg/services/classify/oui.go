package classify

import "strings"

// ouiVendors maps the first three MAC octets to a vendor. This is a small
// curated table of vendors that matter for placement decisions, not a full
// IEEE registry; the fingerprint service covers the long tail.
var ouiVendors = map[string]string{
	"24:0a:c4": "Espressif",
	"24:62:ab": "Espressif",
	"84:cc:a8": "Espressif",
	"b8:27:eb": "Raspberry Pi",
	"dc:a6:32": "Raspberry Pi",
	"e4:5f:01": "Raspberry Pi",
	"18:b4:30": "Nest",
	"64:16:66": "Nest",
	"44:73:d6": "Ring",
	"34:3e:a4": "Ring",
	"bc:ad:28": "Hikvision",
	"44:19:b6": "Hikvision",
	"9c:8e:cd": "Amcrest",
	"a0:60:32": "Dahua",
	"fc:fc:48": "Axis",
	"00:1f:54": "Lorex",
	"94:9f:3e": "Sonos",
	"5c:aa:fd": "Sonos",
	"00:17:88": "Philips Hue",
	"ec:b5:fa": "Philips Hue",
	"d0:73:d5": "LIFX",
	"fc:a1:83": "Amazon",
	"74:c2:46": "Amazon",
	"68:54:fd": "Amazon",
	"18:b7:9e": "Roku",
	"d8:31:34": "Roku",
	"c8:3a:6b": "Roku",
	"00:04:4b": "NVIDIA Shield",
	"8c:79:f5": "Samsung TV",
	"f8:3f:51": "Samsung TV",
	"00:6b:9e": "Vizio",
	"7c:61:66": "LG TV",
	"cc:2d:8c": "LG TV",
	"00:80:92": "Brother",
	"30:05:5c": "Brother",
	"00:21:5a": "Hewlett-Packard",
	"94:57:a5": "Hewlett-Packard",
	"00:00:48": "Epson",
	"44:d2:44": "Canon",
	"f4:e2:c6": "Ubiquiti",
	"78:8a:20": "Ubiquiti",
	"fc:ec:da": "Ubiquiti",
	"b4:fb:e4": "Ubiquiti",
	"00:11:32": "Synology",
	"90:09:d0": "Synology",
	"00:08:9b": "QNAP",
	"ec:71:db": "Shelly",
	"c4:5b:be": "Shelly",
	"d8:f1:5b": "TP-Link Kasa",
	"50:c7:bf": "TP-Link Kasa",
	"68:ff:7b": "TP-Link Kasa",
	"cc:50:e3": "Tuya",
	"10:d5:61": "Tuya",
	"64:b7:08": "Tesla",
	"98:ed:5c": "Tesla",
	"00:12:fb": "Ecobee",
	"44:61:32": "Ecobee",
}

// vendorCategory maps a vendor name to the category its devices almost
// always belong to. Vendors that ship many device kinds (Amazon, Samsung)
// stay at a lower confidence downstream.
func vendorCategory(vendor string) (string, bool) {
	v := strings.ToLower(vendor)
	switch {
	case containsAny(v, "hikvision", "amcrest", "dahua", "axis", "lorex", "ring", "reolink"):
		return "camera", true
	case containsAny(v, "espressif", "shelly", "tuya", "kasa", "hue", "lifx", "nest", "ecobee", "tesla"):
		return "iot", true
	case containsAny(v, "sonos"):
		return "media-player", true
	case containsAny(v, "roku", "shield"):
		return "media-player", true
	case containsAny(v, "samsung tv", "lg tv", "vizio"):
		return "tv", true
	case containsAny(v, "brother", "hewlett", "epson", "canon"):
		return "printer", true
	case containsAny(v, "ubiquiti", "synology", "qnap", "raspberry"):
		return "infrastructure", true
	}
	return "", false
}

// VendorForMAC resolves a vendor from the OUI table.
func VendorForMAC(mac string) (string, bool) {
	mac = strings.ToLower(strings.ReplaceAll(mac, "-", ":"))
	if len(mac) < 8 {
		return "", false
	}
	vendor, ok := ouiVendors[mac[:8]]
	return vendor, ok
}
