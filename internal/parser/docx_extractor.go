package parser

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// ooxmlStrategy 不依赖外部服务的DOCX后备提取
// 直接读zip包里的word/document.xml，收集所有w:t文本节点，段落之间换行
func ooxmlStrategy(_ context.Context, path string) StrategyOutcome {
	text, err := extractDOCXLocal(path)
	if err != nil {
		return StrategyOutcome{Status: StrategyFailed, Detail: err.Error()}
	}
	if strings.TrimSpace(text) == "" {
		return StrategyOutcome{Status: StrategyEmpty, Detail: "文档主体没有文本节点"}
	}
	return StrategyOutcome{Status: StrategyOK, Text: strings.TrimSpace(text)}
}

func extractDOCXLocal(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("打开DOCX压缩包失败: %w", err)
	}
	defer archive.Close()

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("DOCX中缺少 word/document.xml")
	}

	reader, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("读取 word/document.xml 失败: %w", err)
	}
	defer reader.Close()

	decoder := xml.NewDecoder(reader)
	var sb strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch elem := token.(type) {
		case xml.StartElement:
			if elem.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch elem.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(elem)
			}
		}
	}
	return sb.String(), nil
}
