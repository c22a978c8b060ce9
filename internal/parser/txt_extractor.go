package parser

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// txtEncoding 纯文本编码阶梯中的一级
type txtEncoding struct {
	name    string
	decoder *encoding.Decoder
}

// txtEncodingLadder 按顺序尝试的编码：utf-8, utf-16, latin-1, cp1252
// latin-1对任意字节都能解码成功，所以它之后的cp1252实际只在前者被跳过时生效
func txtEncodingLadder() []txtEncoding {
	return []txtEncoding{
		{name: "utf-8", decoder: nil}, // 原生校验，不需要转换器
		{name: "utf-16", decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()},
		{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder()},
		{name: "cp1252", decoder: charmap.Windows1252.NewDecoder()},
	}
}

// extractPlainText 读取纯文本文件，按编码阶梯逐个尝试解码
// 全部失败时返回空文本和警告而不是错误
func extractPlainText(path string) (string, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Sprintf("Could not read text file: %v", err)
	}

	for _, enc := range txtEncodingLadder() {
		var text string
		if enc.decoder == nil {
			if !utf8.Valid(data) {
				continue
			}
			text = string(data)
		} else {
			// UTF-16没有BOM时跳过，否则会把UTF-8内容错误地解码成乱码
			if enc.name == "utf-16" && !hasUTF16BOM(data) {
				continue
			}
			decoded, err := enc.decoder.Bytes(data)
			if err != nil {
				continue
			}
			text = string(decoded)
		}
		// 解码成功但内容为空不算命中，继续下一级
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		return text, ""
	}

	return "", "Could not decode text file with any supported encoding"
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}
