package typeset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"job-hunter-go/internal/config"
	"job-hunter-go/internal/types"
)

// latexEscaper LaTeX特殊字符转义
// 顺序敏感：反斜杠必须最先替换，否则后续替换产生的反斜杠会被二次转义
var latexEscaper = strings.NewReplacer(
	"\\", `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// EscapeLaTeX 转义用户数据中的LaTeX特殊字符
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// FormatDate 把 YYYY-MM 格式化为 "Jan 2006" 样式
// "present"输出为 "Present"，无法解析的输入原样返回
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	if strings.EqualFold(date, "present") {
		return "Present"
	}
	t, err := time.Parse("2006-01", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2006")
}

// Typesetter 用pdflatex把定制简历排版为PDF
type Typesetter struct {
	templatePath string
	tempDir      string
	outputDir    string
	timeout      time.Duration
	logger       *log.Logger
}

// TypesetterOption 排版器的配置选项
type TypesetterOption func(*Typesetter)

// WithTypesetterLogger 配置自定义日志记录器
func WithTypesetterLogger(logger *log.Logger) TypesetterOption {
	return func(t *Typesetter) {
		t.logger = logger
	}
}

// NewTypesetter 创建排版器
func NewTypesetter(cfg *config.TypesetConfig, outputDir string, options ...TypesetterOption) *Typesetter {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	t := &Typesetter{
		templatePath: filepath.Join(cfg.TemplatesDir, cfg.TemplateName),
		tempDir:      cfg.TempDir,
		outputDir:    outputDir,
		timeout:      timeout,
		logger:       log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// --- 模板数据投影，所有字符串都已转义 ---

type texBullet struct {
	Text string
}

type texPosition struct {
	Company  string
	Title    string
	Location string
	Dates    string
	Bullets  []texBullet
}

type texEducation struct {
	Institution string
	Degree      string
	Field       string
	Date        string
	GPA         string
}

type texSkillLine struct {
	Label  string
	Skills string
}

type texResume struct {
	Name       string
	Email      string
	Phone      string
	Location   string
	LinkedIn   string
	Summary    string
	Experience []texPosition
	Education  []texEducation
	SkillLines []texSkillLine
}

// skillLabels 技能分类在排版输出中的显示名
var skillLabels = map[types.SkillCategory]string{
	types.SkillTechnical:      "Technical",
	types.SkillSoft:           "Soft Skills",
	types.SkillTools:          "Tools",
	types.SkillCertifications: "Certifications",
}

// project 把定制简历投影成转义后的模板数据
func project(resume *types.TailoredResume) *texResume {
	data := &texResume{
		Name:     EscapeLaTeX(resume.Personal.Name),
		Email:    EscapeLaTeX(resume.Personal.Email),
		Phone:    EscapeLaTeX(resume.Personal.Phone),
		Location: EscapeLaTeX(resume.Personal.Location),
		LinkedIn: EscapeLaTeX(resume.Personal.LinkedIn),
		Summary:  EscapeLaTeX(resume.Summary),
	}

	for _, pos := range resume.Experience {
		tp := texPosition{
			Company:  EscapeLaTeX(pos.Company),
			Title:    EscapeLaTeX(pos.Title),
			Location: EscapeLaTeX(pos.Location),
			Dates:    formatDateRange(pos.StartDate, pos.EndDate),
		}
		for _, b := range pos.Bullets {
			tp.Bullets = append(tp.Bullets, texBullet{Text: EscapeLaTeX(b)})
		}
		data.Experience = append(data.Experience, tp)
	}

	for _, edu := range resume.Education {
		data.Education = append(data.Education, texEducation{
			Institution: EscapeLaTeX(edu.Institution),
			Degree:      EscapeLaTeX(edu.Degree),
			Field:       EscapeLaTeX(edu.Field),
			Date:        FormatDate(edu.GraduationDate),
			GPA:         EscapeLaTeX(edu.GPA),
		})
	}

	for _, cat := range types.SkillCategories {
		skills := resume.Skills.Category(cat)
		if len(skills) == 0 {
			continue
		}
		escaped := make([]string, len(skills))
		for i, s := range skills {
			escaped[i] = EscapeLaTeX(s)
		}
		data.SkillLines = append(data.SkillLines, texSkillLine{
			Label:  skillLabels[cat],
			Skills: strings.Join(escaped, ", "),
		})
	}

	return data
}

func formatDateRange(start, end string) string {
	s := FormatDate(start)
	e := FormatDate(end)
	switch {
	case s == "" && e == "":
		return ""
	case e == "":
		return s
	case s == "":
		return e
	default:
		return s + " -- " + e
	}
}

// RenderTeX 渲染LaTeX源文件
// 模板分隔符用<<>>避开LaTeX自身的大括号
func (t *Typesetter) RenderTeX(resume *types.TailoredResume) ([]byte, error) {
	source := defaultTemplate
	if data, err := os.ReadFile(t.templatePath); err == nil {
		source = string(data)
	} else {
		t.logger.Printf("模板文件 %s 不可用，使用内置模板: %v", t.templatePath, err)
	}

	tmpl, err := template.New("resume").Delims("<<", ">>").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("解析简历模板失败: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, project(resume)); err != nil {
		return nil, fmt.Errorf("渲染简历模板失败: %w", err)
	}
	return buf.Bytes(), nil
}

// TypesetPDF 渲染并编译PDF，返回输出文件路径
// pdflatex跑两遍保证交叉引用稳定，临时目录在成功后清理
func (t *Typesetter) TypesetPDF(ctx context.Context, resume *types.TailoredResume) (string, error) {
	texSource, err := t.RenderTeX(resume)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(t.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("创建编译临时目录失败: %w", err)
	}

	jobName := fmt.Sprintf("resume_%s", resume.JobID)
	texPath := filepath.Join(t.tempDir, jobName+".tex")
	if err := os.WriteFile(texPath, texSource, 0o644); err != nil {
		return "", fmt.Errorf("写入LaTeX源文件失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	for pass := 1; pass <= 2; pass++ {
		cmd := exec.CommandContext(ctx, "pdflatex",
			"-interaction=nonstopmode",
			"-output-directory", t.tempDir,
			texPath)
		output, err := cmd.CombinedOutput()
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return "", fmt.Errorf("pdflatex编译超时 (%.0f秒)", t.timeout.Seconds())
			}
			tail := string(output)
			if len(tail) > 2000 {
				tail = tail[len(tail)-2000:]
			}
			return "", fmt.Errorf("pdflatex第%d遍编译失败: %w\n%s", pass, err, tail)
		}
	}

	if err := os.MkdirAll(t.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfTemp := filepath.Join(t.tempDir, jobName+".pdf")
	pdfFinal := filepath.Join(t.outputDir, jobName+".pdf")
	data, err := os.ReadFile(pdfTemp)
	if err != nil {
		return "", fmt.Errorf("读取编译产物失败: %w", err)
	}
	if err := os.WriteFile(pdfFinal, data, 0o644); err != nil {
		return "", fmt.Errorf("写入PDF输出失败: %w", err)
	}

	// 清理辅助文件，保留temp目录本身
	for _, ext := range []string{".tex", ".pdf", ".aux", ".log", ".out"} {
		os.Remove(filepath.Join(t.tempDir, jobName+ext))
	}

	t.logger.Printf("PDF排版完成: %s", pdfFinal)
	return pdfFinal, nil
}
