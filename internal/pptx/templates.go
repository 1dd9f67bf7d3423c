package pptx

import (
	"encoding/xml"
	"strings"
	"text/template"
)

const contentTypesTmpl = xmlHeader +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
	`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
	`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
	`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
	`<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>` +
	`<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>` +
	`<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`{{range .Slides}}<Override PartName="/ppt/slides/slide{{.Number}}.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>{{end}}` +
	`</Types>`

const presentationTmpl = xmlHeader +
	`<p:presentation ` + nsPresentation + ` saveSubsetFonts="1">` +
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`{{if .Slides}}<p:sldIdLst>{{range .Slides}}<p:sldId id="{{.ID}}" r:id="{{.RelID}}"/>{{end}}</p:sldIdLst>{{end}}` +
	`<p:sldSz cx="{{.Width}}" cy="{{.Height}}" type="screen4x3"/>` +
	`<p:notesSz cx="{{.Height}}" cy="{{.Width}}"/>` +
	`</p:presentation>`

const presentationRelsTmpl = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps" Target="presProps.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps" Target="viewProps.xml"/>` +
	`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>` +
	`<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles" Target="tableStyles.xml"/>` +
	`{{range .Slides}}<Relationship Id="{{.RelID}}" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide{{.Number}}.xml"/>{{end}}` +
	`</Relationships>`

const coreTmpl = xmlHeader +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
	`xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
	`<dc:title>{{xml .Title}}</dc:title>` +
	`<dc:creator>{{xml .Creator}}</dc:creator>` +
	`<cp:lastModifiedBy>{{xml .Creator}}</cp:lastModifiedBy>` +
	`<cp:revision>1</cp:revision>` +
	`<dcterms:created xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:created>` +
	`<dcterms:modified xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:modified>` +
	`</cp:coreProperties>`

const appTmpl = xmlHeader +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" ` +
	`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
	`<Application>{{xml .Creator}}</Application>` +
	`<PresentationFormat>On-screen Show (4:3)</PresentationFormat>` +
	`<Slides>{{len .Slides}}</Slides>` +
	`</Properties>`

const slideTmpl = `{{define "rPr"}}<a:rPr lang="en-US" sz="{{.Size}}"{{if .Bold}} b="1"{{end}}{{if .Italic}} i="1"{{end}} dirty="0">` +
	`<a:solidFill><a:srgbClr val="{{.Color}}"/></a:solidFill></a:rPr>{{end}}` +
	`{{define "slide"}}` + xmlHeader +
	`<p:sld ` + nsPresentation + `>` +
	`<p:cSld><p:spTree>` + emptyGroup +
	`{{range .Shapes}}<p:sp>` +
	`<p:nvSpPr><p:cNvPr id="{{.ID}}" name="{{xml .Name}}"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="{{.X}}" y="{{.Y}}"/><a:ext cx="{{.W}}" cy="{{.H}}"/></a:xfrm>` +
	`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>` +
	`<p:txBody><a:bodyPr wrap="square" rtlCol="0" anchor="{{.Anchor}}"><a:normAutofit/></a:bodyPr><a:lstStyle/>` +
	`<a:p><a:pPr algn="ctr"/>` +
	`{{range .Runs}}{{if .Break}}<a:br>{{template "rPr" .}}</a:br>{{else}}<a:r>{{template "rPr" .}}<a:t>{{xml .Text}}</a:t></a:r>{{end}}{{end}}` +
	`</a:p></p:txBody></p:sp>{{end}}` +
	`</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sld>{{end}}`

var funcs = template.FuncMap{"xml": escapeXML}

var (
	contentTypesTemplate     = template.Must(template.New("contentTypes").Funcs(funcs).Parse(contentTypesTmpl))
	presentationTemplate     = template.Must(template.New("presentation").Funcs(funcs).Parse(presentationTmpl))
	presentationRelsTemplate = template.Must(template.New("presentationRels").Funcs(funcs).Parse(presentationRelsTmpl))
	coreTemplate             = template.Must(template.New("core").Funcs(funcs).Parse(coreTmpl))
	appTemplate              = template.Must(template.New("app").Funcs(funcs).Parse(appTmpl))
	slideTemplate            = template.Must(template.New("slides").Funcs(funcs).Parse(slideTmpl))
)

// escapeXML escapes s for element text and attribute values.
// Characters that are illegal in XML 1.0 become U+FFFD.
func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
