package buildmeta

var (
	PyStr     = pyStr
	PyVersion = pyVersion
)
