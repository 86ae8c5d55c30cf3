package generation

// JSON schemas enforced on every generation response. A response that does
// not match its stage schema is treated as malformed and resolved with the
// stage fallback.

const primaryBundleSchema = `{
  "type": "object",
  "required": ["hero_title", "hero_subtitle", "about", "offerings"],
  "properties": {
    "hero_title": {"type": "string", "minLength": 1},
    "hero_subtitle": {"type": "string", "minLength": 1},
    "about": {"type": "string", "minLength": 1},
    "offerings": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "description"],
        "properties": {
          "name": {"type": "string"},
          "description": {"type": "string"},
          "price": {"type": "string"}
        }
      }
    },
    "palette": {
      "type": "object",
      "required": ["primary", "secondary", "accent"],
      "properties": {
        "primary": {"type": "string"},
        "secondary": {"type": "string"},
        "accent": {"type": "string"}
      }
    },
    "typography": {
      "type": "object",
      "required": ["heading_font", "body_font"],
      "properties": {
        "heading_font": {"type": "string"},
        "body_font": {"type": "string"}
      }
    },
    "brand_prompt": {"type": "string"}
  }
}`

const seoSchema = `{
  "type": "object",
  "required": ["title", "description", "keywords"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string", "minLength": 1},
    "keywords": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string"}
    }
  }
}`

const menuSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "description"],
        "properties": {
          "name": {"type": "string"},
          "description": {"type": "string"},
          "price": {"type": "string"}
        }
      }
    }
  }
}`

const productsSchema = menuSchema

const scheduleSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "day", "time"],
        "properties": {
          "name": {"type": "string"},
          "day": {"type": "string"},
          "time": {"type": "string"},
          "instructor": {"type": "string"}
        }
      }
    }
  }
}`

const teamSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "role"],
        "properties": {
          "name": {"type": "string"},
          "role": {"type": "string"},
          "bio": {"type": "string"}
        }
      }
    }
  }
}`

const testimonialsSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["author", "quote", "rating"],
        "properties": {
          "author": {"type": "string"},
          "quote": {"type": "string"},
          "rating": {"type": "integer", "minimum": 1, "maximum": 5}
        }
      }
    }
  }
}`

const intelligenceSchema = `{
  "type": "object",
  "required": ["competitor_estimate", "market_position"],
  "properties": {
    "competitor_estimate": {"type": "string"},
    "market_position": {"type": "string"},
    "opportunities": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "audience_segments": {"type": "array", "items": {"type": "string"}},
    "differentiators": {"type": "array", "items": {"type": "string"}}
  }
}`

const distributionSchema = `{
  "type": "object",
  "required": ["posts"],
  "properties": {
    "posts": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["platform", "text"],
        "properties": {
          "platform": {"type": "string"},
          "text": {"type": "string"}
        }
      }
    }
  }
}`

const welcomeSchema = `{
  "type": "object",
  "required": ["message"],
  "properties": {
    "message": {"type": "string", "minLength": 1}
  }
}`
