package typeset

// defaultTemplate 内置的简历模板，模板目录缺失时兜底
// 分隔符是<< >>，数据字段见 texResume
const defaultTemplate = `\documentclass[10pt]{article}
\usepackage[margin=0.75in]{geometry}
\usepackage{enumitem}
\usepackage{titlesec}
\usepackage[hidelinks]{hyperref}
\pagestyle{empty}
\titleformat{\section}{\large\bfseries}{}{0em}{}[\titlerule]
\titlespacing*{\section}{0pt}{8pt}{4pt}
\setlist[itemize]{leftmargin=*, nosep, topsep=2pt}

\begin{document}

\begin{center}
{\LARGE \textbf{<< .Name >>}}\\[4pt]
<< .Email >><< if .Phone >> $|$ << .Phone >><< end >><< if .Location >> $|$ << .Location >><< end >><< if .LinkedIn >> $|$ << .LinkedIn >><< end >>
\end{center}

<< if .Summary >>
\section*{Summary}
<< .Summary >>
<< end >>

<< if .Experience >>
\section*{Experience}
<< range .Experience >>
\noindent\textbf{<< .Title >>} \hfill << .Dates >>\\
\textit{<< .Company >>}<< if .Location >> \hfill << .Location >><< end >>
<< if .Bullets >>
\begin{itemize}
<< range .Bullets >>  \item << .Text >>
<< end >>\end{itemize}
<< end >>
<< end >>
<< end >>

<< if .Education >>
\section*{Education}
<< range .Education >>
\noindent\textbf{<< .Institution >>} \hfill << .Date >>\\
<< .Degree >><< if .Field >>, << .Field >><< end >><< if .GPA >> (GPA: << .GPA >>)<< end >>
<< end >>
<< end >>

<< if .SkillLines >>
\section*{Skills}
\begin{itemize}
<< range .SkillLines >>  \item \textbf{<< .Label >>:} << .Skills >>
<< end >>\end{itemize}
<< end >>

\end{document}
`
