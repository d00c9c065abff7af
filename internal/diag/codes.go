package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Переиндентация
	ReindentFallback       Code = 1001
	ReindentNestedEntryKey Code = 1002
	ReindentShallowSkipped Code = 1003

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
	IOWriteError    Code = 4003

	// Проверка результата
	VerifyParseError Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	ReindentFallback:       "Unrecognized line placed at list-item depth",
	ReindentNestedEntryKey: "Entry key below field depth kept as content",
	ReindentShallowSkipped: "Indented entry start ignored by shallow mode",
	IOLoadFileError:        "Failed to read file",
	IODecodeError:          "File is not valid UTF-8",
	IOWriteError:           "Failed to write file",
	VerifyParseError:       "Output is not valid YAML",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RDT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("VFY%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
